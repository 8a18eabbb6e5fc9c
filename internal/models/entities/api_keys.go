package entities

type ApiKey struct {
	ApiKey string `db:"id"`
	Label  string `db:"label"`
	Status bool   `db:"status"`
}
