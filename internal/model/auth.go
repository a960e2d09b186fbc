package model

// GateLoginRequest is the access-gate credential pair.
type GateLoginRequest struct {
	Phone    string `json:"phone" binding:"required,min=4,max=20"`
	Passcode string `json:"passcode" binding:"required,min=4,max=32"`
}
