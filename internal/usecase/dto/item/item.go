package itemdto

type CreateItemInput struct {
	Currency       string
	Rate           float64
	Amount         int
	Platform       string
	CryptoCurrency bool
}

type UpdateItemInput struct {
	Rate           *float64
	Amount         *int
	Platform       *string
	CryptoCurrency *bool
}
