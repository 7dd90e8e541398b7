package smtp

// Config holds SMTP relay configuration. All fields are required for runtime
// operation to ensure explicit configuration and avoid silent failures in
// production. The username doubles as the sending address, matching how
// relay providers authenticate submission.
type Config struct {
	Host     string `env:"SMTP_HOST,required"`
	Port     int    `env:"SMTP_PORT" envDefault:"465"`
	Username string `env:"SMTP_USERNAME,required"`
	Password string `env:"SMTP_PASSWORD,required"`
	TLSMode  string `env:"SMTP_TLS_MODE" envDefault:"tls"` // tls, starttls, or plain
	FromName string `env:"SMTP_FROM_NAME,required"`
}
