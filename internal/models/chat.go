package models

// ChatSession is a conversation with the assistant.
type ChatSession struct {
	SessionID int64 `json:"session_id"`
	StartedAt Time  `json:"started_at"`
}

// ChatRequest is the body posted to send a chat message.
type ChatRequest struct {
	Message   string `json:"message" binding:"required,max=2000"`
	SessionID *int64 `json:"session_id,omitempty"`
}

// Provenance lists the transactions an answer was grounded on.
type Provenance struct {
	TransactionIDs []int64 `json:"transaction_ids"`
}

// ChatReply is the assistant's answer to a message.
type ChatReply struct {
	SessionID     int64       `json:"session_id"`
	Response      string      `json:"response"`
	Intent        string      `json:"intent,omitempty"`
	Confidence    float64     `json:"confidence"`
	Provenance    *Provenance `json:"provenance,omitempty"`
	RetrievedDocs int         `json:"retrieved_docs"`
}

// ChatMessage is one entry of a session's history.
type ChatMessage struct {
	ID         int64       `json:"id"`
	Role       string      `json:"role"`
	Content    string      `json:"content"`
	Timestamp  Time        `json:"timestamp"`
	Intent     string      `json:"intent,omitempty"`
	Provenance *Provenance `json:"provenance,omitempty"`
}

// ChatHistory is the message log of a session.
type ChatHistory struct {
	SessionID int64         `json:"session_id"`
	Messages  []ChatMessage `json:"messages"`
}
