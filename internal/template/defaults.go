package template

// Defaults returns the seed template set. The slice is rebuilt on every
// call so callers cannot mutate the canonical copy.
//
// IDs are stable: reseeding an empty or corrupted store always produces
// the same collection.
func Defaults() []Template {
	return []Template{
		{
			ID:            "tpl-debt-total",
			Type:          TypeCustomerInfo,
			SenderRole:    "market",
			RecipientRole: "customer",
			Title:         "ئاگاداری قەرز",
			Message:       "کۆی قەرزت لە {market} بریتییە لە {amount} دینار",
		},
		{
			ID:            "tpl-debt-due",
			Type:          TypeCustomerInfo,
			SenderRole:    "market",
			RecipientRole: "customer",
			Title:         "بیرخستنەوەی قەرز",
			Message:       "بەڕێز {name}، کاتی دانەوەی قەرزەکەت لە {market} گەیشتووە: {amount} دینار",
		},
		{
			ID:            "tpl-payment-received",
			Type:          TypeCustomerInfo,
			SenderRole:    "market",
			RecipientRole: "customer",
			Title:         "پارەدان وەرگیرا",
			Message:       "بڕی {amount} دینار لە قەرزەکەت کەمکرایەوە. سوپاس {name}",
		},
		{
			ID:            "tpl-subscription-expiry",
			Type:          TypeSubscription,
			SenderRole:    "admin",
			RecipientRole: "market",
			Title:         "ئاگاداری بەشداری",
			Message:       "بەشداریەکەت لە {date} بەسەردەچێت. تکایە نوێی بکەرەوە",
		},
		{
			ID:            "tpl-employee-welcome",
			Type:          TypeEmployeeGuide,
			SenderRole:    "market",
			RecipientRole: "employee",
			Title:         "بەخێربێیت",
			Message:       "بەخێربێیت {name} بۆ {market}. ڕێنمایی کارمەندان لە بەشی ڕێکخستنەکان ببینە",
		},
		{
			ID:            "tpl-general-announce",
			Type:          TypeGeneral,
			SenderRole:    "admin",
			RecipientRole: "market",
			Title:         "{title}",
			Message:       "{message}",
		},
	}
}
