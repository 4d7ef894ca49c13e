package domain

// Actor is the authenticated identity on whose behalf a request runs.
// It is a closed set of variants so role-conditional fields (a staff
// member's home region, a customer's optional legacy region) are carried
// only by the variants that have them.
type Actor interface {
	ActorID() int
	ActorEmail() string
	actor()
}

// Admin has no region restriction.
type Admin struct {
	ID    int
	Email string
}

// Staff belongs to exactly one home region. A zero-value Region marks a
// misconfigured record and fails closed everywhere.
type Staff struct {
	ID     int
	Email  string
	Region Region
}

// Customer may carry a region; a zero value marks a legacy customer with
// no region assignment, treated as region-agnostic for read access.
type Customer struct {
	ID     int
	Email  string
	Region Region
}

func (a Admin) ActorID() int    { return a.ID }
func (a Staff) ActorID() int    { return a.ID }
func (a Customer) ActorID() int { return a.ID }

func (a Admin) ActorEmail() string    { return a.Email }
func (a Staff) ActorEmail() string    { return a.Email }
func (a Customer) ActorEmail() string { return a.Email }

func (Admin) actor()    {}
func (Staff) actor()    {}
func (Customer) actor() {}
