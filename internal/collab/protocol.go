package collab

import "encoding/json"

type Message struct {
	Type      string          `json:"type"`
	ProjectID string          `json:"projectId,omitempty"`
	ClientID  string          `json:"clientId,omitempty"`
	UserID    string          `json:"userId,omitempty"`
	Seq       int64           `json:"seq,omitempty"`
	Payload   json.RawMessage `json:"payload"`
}

type PresencePayload struct {
	Cursor      *CursorPos `json:"cursor,omitempty"`
	Selection   []string   `json:"selection,omitempty"`
	DisplayName string     `json:"displayName,omitempty"`
}

type CursorPos struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type PresenceStatePayload struct {
	Presences map[string]*PresencePayload `json:"presences"`
}

type PresenceJoinPayload struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

type PresenceLeavePayload struct {
	UserID string `json:"userId"`
}

const (
	TypePresenceUpdate = "presence.update"
	TypePresenceState  = "presence.state"
	TypePresenceJoin   = "presence.join"
	TypePresenceLeave  = "presence.leave"
	TypeError          = "error"

	// Connection
	TypeWelcome = "welcome"

	// Document sync
	TypeDocSync = "doc.sync"

	// Operation message types
	TypeOpSubmit    = "op.submit"
	TypeOpAck       = "op.ack"
	TypeOpNack      = "op.nack"
	TypeOpBroadcast = "op.broadcast"
)

// --- Operation Types ---

// Operation represents a scene mutation. Previous* fields carry the state
// needed to undo the operation on the client.
type Operation struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`
	ClientSeq int64  `json:"clientSeq"`
	ShapeID   string `json:"shapeId,omitempty"`

	// For shape.transform: partial numeric updates. x, y, and rotation
	// address the node itself; anything else addresses the kind-specific
	// data payload (width, height, radius, fontSize, ...).
	Transform json.RawMessage `json:"transform,omitempty"`
	Previous  json.RawMessage `json:"previous,omitempty"`

	// For shape.create
	Shape json.RawMessage `json:"shape,omitempty"`
	Index *int            `json:"index,omitempty"`

	// For shape.delete
	PreviousShape json.RawMessage `json:"previousShape,omitempty"`
	PreviousIndex *int            `json:"previousIndex,omitempty"`

	// For shape.visibility
	Visible      *bool `json:"visible,omitempty"`
	PreviousBool *bool `json:"previousBool,omitempty"`

	// For shape.reorder
	NewIndex int `json:"newIndex,omitempty"`

	// For scene.update
	Changes json.RawMessage `json:"changes,omitempty"`

	// For project.rename
	Name         string `json:"name,omitempty"`
	PreviousName string `json:"previousName,omitempty"`
}

const (
	OpShapeTransform  = "shape.transform"
	OpShapeCreate     = "shape.create"
	OpShapeDelete     = "shape.delete"
	OpShapeVisibility = "shape.visibility"
	OpShapeReorder    = "shape.reorder"
	OpSceneUpdate     = "scene.update"
	OpProjectRename   = "project.rename"
)

// OperationSubmitPayload is the payload for op.submit messages
type OperationSubmitPayload struct {
	Operation Operation `json:"operation"`
}

// OperationAckPayload is the payload for op.ack messages
type OperationAckPayload struct {
	OperationID     string `json:"operationId"`
	ServerSeq       int64  `json:"serverSeq"`
	ServerTimestamp int64  `json:"serverTimestamp"`
}

// OperationNackPayload is the payload for op.nack messages
type OperationNackPayload struct {
	OperationID string `json:"operationId"`
	Reason      string `json:"reason"`
}

// OperationBroadcastPayload is the payload for op.broadcast messages
type OperationBroadcastPayload struct {
	Operation Operation `json:"operation"`
	UserID    string    `json:"userId"`
	ServerSeq int64     `json:"serverSeq"`
}

// DocSyncPayload carries the full document to a newly joined client.
type DocSyncPayload struct {
	Document  json.RawMessage `json:"document"`
	ServerSeq int64           `json:"serverSeq"`
}
