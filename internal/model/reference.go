package model

// Category is a user-defined expense category. Categories are created
// inline from the receipt editor as well as explicitly.
type Category struct {
	ID          string
	Name        string
	Description string
}

// JobStatus mirrors the backend's job lifecycle flag.
type JobStatus string

const (
	JobActive    JobStatus = "ACTIVE"
	JobCompleted JobStatus = "COMPLETED"
	JobArchived  JobStatus = "ARCHIVED"
)

// Job is a client engagement receipts can be billed against.
type Job struct {
	ID         string
	Name       string
	ClientName string
	Address    string
	Status     JobStatus
}

// Vendor is a known merchant.
type Vendor struct {
	ID   string
	Name string
}

// Card is a payment card on file, matched against parsed receipts.
type Card struct {
	ID              string
	Nickname        string
	Last4           string
	Brand           string
	DefaultCategory string
	IsActive        bool
}

// User is the authenticated account profile from the backend. Limit is
// nil for tiers without a monthly cap.
type User struct {
	ID      string
	Email   string
	Tier    string
	Usage   int
	Limit   *int
	Created int64
}
