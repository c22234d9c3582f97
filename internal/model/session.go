package model

// StartSessionRequest is the payload for starting a quiz session.
type StartSessionRequest struct {
	Subject string `json:"subject" binding:"required,min=1,max=100"`
}

// AnswerRequest is the payload for recording an answer at a question
// position. Index is a pointer so position 0 passes required validation.
type AnswerRequest struct {
	Index  *int   `json:"index" binding:"required,min=0"`
	Option string `json:"option" binding:"required,oneof=A B C D"`
}
