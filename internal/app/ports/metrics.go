package ports

import (
	"hivemind/internal/domain/colony"
	"hivemind/internal/domain/jobs"
)

type TickMetrics interface {
	RecordTick(colonies, agents int)
	RecordAssignment(role colony.Role, category jobs.Category)
	RecordIdle(role colony.Role)
	RecordFault(kind string, severity string)
	RecordSpawn(role colony.Role)
}
