package model

// RunInput is the trigger payload of a report run.
type RunInput struct {
	Type string `json:"type"`
}

// AccountInfo represents cloud account identity, used by the check command.
type AccountInfo struct {
	Provider    string
	AccountID   string
	AccountName string
}
