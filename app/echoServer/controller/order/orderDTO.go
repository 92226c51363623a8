package order

type RentReq struct {
	Duration string `json:"duration" validate:"required,oneof=2w 1m 3m"`
}
