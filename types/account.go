package types

// Account is the metadata stored for every contract address: the hash of its
// code and an optional administrator. Created exactly once at instantiation;
// the code hash is immutable through the engine's operations.
type Account struct {
	CodeHash Hash     `json:"code_hash"`
	Admin    *Address `json:"admin,omitempty"`
}
