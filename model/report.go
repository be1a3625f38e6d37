package model

// Field is one labeled value inside an attachment.
type Field struct {
	Title string
	Value string
}

// Attachment mirrors the chat API's legacy attachment shape.
type Attachment struct {
	Color  string
	Text   string
	Fields []Field
}

// ReportMessage is the two-part cost notification: a root message carrying
// the period total, and a detail message posted as a threaded reply under it.
type ReportMessage struct {
	RootText string
	Root     Attachment
	Detail   Attachment
}
