package dto

// Res is the envelope every JSON endpoint answers with.
type Res struct {
	ResponseCode    string      `json:"responseCode"`
	ResponseMessage string      `json:"responseMessage"`
	Data            interface{} `json:"data,omitempty"`
}

func OK(data interface{}) Res {
	return Res{ResponseCode: "200", ResponseMessage: "OK", Data: data}
}

func Fail(code, message string) Res {
	return Res{ResponseCode: code, ResponseMessage: message}
}
