package db

// DB is the database port behind the message repositories. It keeps the
// wiring in main agnostic of the driver, so the Postgres-backed store and
// the in-memory store are interchangeable via configuration.
type DB interface {
	Conn() any
}
