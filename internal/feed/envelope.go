// Package feed publishes appended history records to external consumers
// Package feed 将已写入的历史记录推送给外部订阅方
package feed

import (
	"github.com/bytedance/sonic"

	"github.com/haierkeys/inventory-audit-service/internal/domain"
	"github.com/haierkeys/inventory-audit-service/pkg/diff"
)

// Envelope is the wire form of one history record
// Envelope 历史记录的推送格式
type Envelope struct {
	ID             string        `json:"id"`
	EntityType     string        `json:"entityType"`
	EntityID       string        `json:"entityId"`
	Action         string        `json:"action"`
	ActorID        string        `json:"actorId,omitempty"`
	Changes        []diff.Change `json:"changes"`
	Reason         string        `json:"reason,omitempty"`
	ReferenceID    string        `json:"referenceId,omitempty"`
	ReferenceModel string        `json:"referenceModel,omitempty"`
	Notes          string        `json:"notes,omitempty"`
	Timestamp      int64         `json:"timestamp"` // unix 毫秒
}

// NewEnvelope builds the envelope of rec
func NewEnvelope(rec *domain.HistoryRecord) *Envelope {
	env := &Envelope{
		ID:             rec.ID,
		EntityType:     rec.EntityType,
		EntityID:       rec.EntityID.String(),
		Action:         string(rec.Action),
		Changes:        rec.Changes,
		Reason:         rec.Reason,
		ReferenceID:    rec.ReferenceID,
		ReferenceModel: rec.ReferenceModel,
		Notes:          rec.Notes,
		Timestamp:      rec.Timestamp.UnixMilli(),
	}
	if rec.ActorID != nil {
		env.ActorID = rec.ActorID.String()
	}
	return env
}

// Key partitions envelopes so that records of one entity stay ordered
func (e *Envelope) Key() string {
	return e.EntityType + ":" + e.EntityID
}

// Encode 序列化为 JSON
func (e *Envelope) Encode() ([]byte, error) {
	return sonic.Marshal(e)
}

// DecodeEnvelope 反序列化 JSON
func DecodeEnvelope(data []byte) (*Envelope, error) {
	env := &Envelope{}
	if err := sonic.Unmarshal(data, env); err != nil {
		return nil, err
	}
	return env, nil
}
