package model

// SlackCredential is the JSON shape of the Slack secret. Both fields are
// required. The credential is fetched once per run, never cached across runs
// and never logged.
type SlackCredential struct {
	Token   string `json:"token"`
	Channel string `json:"channel"`
}
