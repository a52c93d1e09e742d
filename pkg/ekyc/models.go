package ekyc

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Status    int             `json:"status"`
	Code      string          `json:"code"`
	Message   string          `json:"message"`
	Signature string          `json:"signature,omitempty"`
	RequestID string          `json:"requestId,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// Err returns nil for status 200 and a mapped validation error otherwise.
func (r Response) Err() error {
	if r.Status == http.StatusOK {
		return nil
	}
	return errors.Join(ValidationError(r.Code), fmt.Errorf("status %d code %q: %s", r.Status, r.Code, r.Message))
}

// RegisterResult is the result of RegisterDevice and UpdateDeviceSecret.
type RegisterResult struct {
	Response
	// Secret is the base32 TOTP secret issued to the device.
	Secret string
	// Cached reports that the device was already registered and no request
	// was sent.
	Cached bool
}

// Transaction is the data of a successful InitTransaction.
type Transaction struct {
	TransactionID string `json:"transactionId"`
	VerifyToken   string `json:"verifyToken,omitempty"`
}

// UnmarshalJSON accepts both the object form and a bare transaction id.
func (t *Transaction) UnmarshalJSON(b []byte) error {
	var id string
	if err := json.Unmarshal(b, &id); err == nil {
		*t = Transaction{TransactionID: id}
		return nil
	}
	type plain Transaction
	return json.Unmarshal(b, (*plain)(t))
}

// CardData is the chip content read over NFC. Raw data groups are sent
// base64-encoded; DG2 and the back image are optional.
type CardData struct {
	SOD           []byte
	DG1           []byte
	DG2           []byte
	DG13          []byte
	DG14          []byte
	BackCardImage string
}

// AuthStatus is the chip or passive authentication outcome.
type AuthStatus string

const AuthNotDone AuthStatus = "notDone"

// CardInformation is the citizen data decoded by the backend.
type CardInformation struct {
	Cert                   string `json:"cert"`
	CitizenIdentify        string `json:"citizen_identify"`
	DateOfBirth            string `json:"date_of_birth"`
	DateOfExpiry           string `json:"date_of_expiry"`
	DateProvide            string `json:"date_provide"`
	Ethnic                 string `json:"ethnic"`
	FaceImage              string `json:"face_image"`
	FatherName             string `json:"father_name"`
	FullName               string `json:"full_name"`
	Gender                 string `json:"gender"`
	Hex                    string `json:"hex"`
	MotherName             string `json:"mother_name"`
	Nationality            string `json:"nationality"`
	OldCitizenIdentify     string `json:"old_citizen_identify"`
	OtherName              string `json:"otherName"`
	PartnerName            string `json:"partner_name"`
	PersonalIdentification string `json:"personal_identification"`
	PlaceOfOrigin          string `json:"place_of_origin"`
	PlaceOfResidence       string `json:"place_of_residence"`
	Religion               string `json:"religion"`
}

// CardResult is the response of ReadCard.
type CardResult struct {
	Status            int              `json:"status"`
	Code              string           `json:"code"`
	Message           string           `json:"message"`
	RequestID         string           `json:"requestId"`
	FaceString        string           `json:"faceString"`
	Data              *CardInformation `json:"data,omitempty"`
	ChipAuthStatus    AuthStatus       `json:"chipAuthStatus"`
	PassiveAuthStatus AuthStatus       `json:"passiveAuthStatus"`
}

// Liveness is the data of a VerifyFace response.
type Liveness struct {
	LivenessScore      float64 `json:"livenessScore"`
	FaceMatchingScore  float64 `json:"faceMatchingScore"`
	Sim                float64 `json:"sim"`
	LivenessType       string  `json:"livenessType"`
	FaceMatchingResult int     `json:"faceMatchingResult"`
	Success            bool    `json:"success"`
}

// LivenessResult is the response of VerifyFace.
type LivenessResult struct {
	Status    int      `json:"status"`
	Code      string   `json:"code"`
	Message   string   `json:"message"`
	Signature string   `json:"signature"`
	Success   bool     `json:"success"`
	RequestID string   `json:"request_id"`
	Data      Liveness `json:"data"`
}
