package broadcasthandler

type BroadcastResponse struct {
	Message string `json:"message" example:"message broadcasted successfully"`
} // @name BroadcastResponse

type ErrorResponse struct {
	Error string `json:"error"`
} // @name ErrorResponse
