package dto

// PhoneRequest represents one phone record in a user payload.
// All fields are required and non-blank.
type PhoneRequest struct {
	Number      string `json:"number" binding:"required"`
	CityCode    string `json:"cityCode" binding:"required"`
	CountryCode string `json:"countryCode" binding:"required"`
}
