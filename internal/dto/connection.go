package dto

// ConnectionParams are the five parameters needed to open a system-account
// connection to the remote system.
type ConnectionParams struct {
	Host         string
	SystemNumber string
	Client       string
	Username     string
	Password     string
}
