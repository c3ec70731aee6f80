package i18n

// translations maps notification key → language code → format string.
// Format verbs follow fmt.Sprintf conventions.
//
// Supported languages: en (English), zh (Simplified Chinese).
var translations = map[string]map[string]string{

	// %s = restaurant name
	"notification.order.confirmed.subject": {
		"en": "%s - Order Confirmed",
		"zh": "%s - 订单已确认",
	},
	// %s = customer name, %s = formatted total, %s = restaurant phone,
	// %s = restaurant name, %s = restaurant address
	"notification.order.confirmed.body": {
		"en": "Hi %s,\n\n" +
			"Your order of %s has been confirmed and is being prepared.\n\n" +
			"Questions? Call us at %s.\n\n" +
			"%s\n%s\n",
		"zh": "%s 您好，\n\n" +
			"您的订单（%s）已确认，正在准备中。\n\n" +
			"如有疑问，请致电 %s。\n\n" +
			"%s\n%s\n",
	},

	// %s = restaurant name
	"notification.reservation.reminder.subject": {
		"en": "%s - Reservation Reminder",
		"zh": "%s - 订座提醒",
	},
	// %s = guest name, %s = time slot, %d = party size, %s = restaurant phone,
	// %s = restaurant name, %s = restaurant address
	"notification.reservation.reminder.body": {
		"en": "Hi %s,\n\n" +
			"This is a friendly reminder of your reservation today at %s for %d guests.\n\n" +
			"Need to make changes? Call us at %s.\n\n" +
			"See you soon!\n%s\n%s\n",
		"zh": "%s 您好，\n\n" +
			"温馨提醒：您预订了今天 %s 的 %d 人座位。\n\n" +
			"如需更改，请致电 %s。\n\n" +
			"期待您的光临！\n%s\n%s\n",
	},
	// %s = restaurant name, %s = guest name, %s = time slot, %d = party size,
	// %s = restaurant phone
	"notification.reservation.reminder.sms": {
		"en": "%s: Hi %s, reminder of your reservation today at %s for %d guests. Call %s for changes.",
		"zh": "%s：%s 您好，提醒您今天 %s 有 %d 人订座。如需更改请致电 %s。",
	},
}
