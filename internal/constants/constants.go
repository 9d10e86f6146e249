package constants

const (
	Create = "CREATE"
	Update = "UPDATE"
	Delete = "DELETE"

	StockChange  = "STOCK_CHANGE"
	Borrow       = "BORROW"
	BorrowFailed = "BORROW_FAILED"
	Return       = "RETURN"

	Register = "REGISTER"
)
