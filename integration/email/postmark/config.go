package postmark

// Config holds Postmark API credentials and the sender identity. Both tokens
// are required for runtime operation, enforcing explicit configuration rather
// than silent failures in production.
type Config struct {
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN,required"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN,required"`
	SenderEmail          string `env:"POSTMARK_SENDER_EMAIL,required"`
	FromName             string `env:"POSTMARK_FROM_NAME,required"`
}
