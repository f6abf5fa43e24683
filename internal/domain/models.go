package domain

// Domain contains core models shared across packages.

// Article is one entry discovered on the economy listing. Identity is Link;
// two articles with the same link are the same entity regardless of the
// remaining fields.
type Article struct {
	Title       string
	Link        string
	DisplayDate string
	Source      string
}
