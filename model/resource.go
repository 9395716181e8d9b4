package model

// AccountInfo represents the AWS identity behind a set of credentials
type AccountInfo struct {
	Provider    string
	AccountID   string
	AccountName string
	UserID      string
}
