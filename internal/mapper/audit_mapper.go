package mapper

import (
	"encoding/json"

	"member-access-be/internal/entity"
	"member-access-be/internal/model"

	"gorm.io/datatypes"
)

type AuditMapper struct{}

func NewAuditMapper() *AuditMapper {
	return &AuditMapper{}
}

func (m *AuditMapper) ToEntity(r *model.AuditRecord) *entity.AuditRecord {
	if r == nil {
		return nil
	}
	var meta map[string]interface{}
	if len(r.Meta) > 0 {
		if err := json.Unmarshal(r.Meta, &meta); err != nil {
			meta = nil
		}
	}
	return &entity.AuditRecord{
		Id:           r.Id,
		ActorId:      r.ActorId,
		Action:       r.Action,
		TargetUserId: r.TargetUserId,
		Meta:         meta,
		CreatedAt:    r.CreatedAt,
	}
}

func (m *AuditMapper) ToModel(r *entity.AuditRecord) *model.AuditRecord {
	if r == nil {
		return nil
	}
	var meta datatypes.JSON
	if len(r.Meta) > 0 {
		if raw, err := json.Marshal(r.Meta); err == nil {
			meta = datatypes.JSON(raw)
		}
	}
	return &model.AuditRecord{
		Id:           r.Id,
		ActorId:      r.ActorId,
		Action:       r.Action,
		TargetUserId: r.TargetUserId,
		Meta:         meta,
		CreatedAt:    r.CreatedAt,
	}
}
