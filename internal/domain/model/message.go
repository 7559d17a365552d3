package model

import "fmt"

// RecallsPageURL is the public FDA recalls listing linked from every alert.
const RecallsPageURL = "https://www.fda.gov/safety/recalls-market-withdrawals-safety-alerts"

const displayDateLayout = "January 2, 2006"

// NotificationMessage is a chat-ready alert for one recall record.
type NotificationMessage struct {
	RecallID string
	Text     string
}

// FormatRecall renders the alert body. The Markdown-style link renders on
// Telegram; Slack shows the text and auto-links the URL.
func FormatRecall(r *RecallRecord) NotificationMessage {
	text := fmt.Sprintf(
		"🚨 *FDA Recall Alert* 🚨\n"+
			"⚠️ *Product:* %s\n"+
			"❗ *Reason:* %s\n"+
			"🏭 *Company:* %s\n"+
			"🌎 *Distribution:* %s\n"+
			"📅 *Recall Date:* %s\n"+
			"🔗 [More Info](%s)",
		orNA(r.ProductDescription),
		orNA(r.ReasonForRecall),
		orNA(r.RecallingFirm),
		orNA(r.DistributionPattern),
		r.ReportDate.Format(displayDateLayout),
		RecallsPageURL,
	)
	return NotificationMessage{RecallID: r.ID, Text: text}
}

func orNA(s string) string {
	if s == "" {
		return "n/a"
	}
	return s
}
