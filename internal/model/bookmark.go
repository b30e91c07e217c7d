package model

// SavedSeller is a client's bookmark of a seller.
type SavedSeller struct {
	ID       int64 `db:"id" json:"id"`
	UserID   int64 `db:"user_id" json:"user_id"`
	SellerID int64 `db:"seller_id" json:"seller_id"`
}

// SavedClient is a seller's bookmark of a client.
type SavedClient struct {
	ID       int64 `db:"id" json:"id"`
	SellerID int64 `db:"seller_id" json:"seller_id"`
	UserID   int64 `db:"user_id" json:"user_id"`
}
