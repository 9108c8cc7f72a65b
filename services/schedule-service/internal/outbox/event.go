package outbox

// Event is the domain event envelope written to the outbox table.
// The Kafka topic name equals EventType (event per topic).
type Event struct {
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}

// Topics this service emits. Downstream read models replicate schedule
// state from these.
const (
	EventBusinessUpdated      = "schedule.business.updated.v1"
	EventStaffUpdated         = "schedule.staff.updated.v1"
	EventWorkingHoursReplaced = "schedule.working_hours.replaced.v1"
	EventBlackoutSet          = "schedule.blackout.set.v1"
	EventBlackoutRemoved      = "schedule.blackout.removed.v1"
	EventExceptionSet         = "schedule.exception.set.v1"
	EventExceptionRemoved     = "schedule.exception.removed.v1"
	EventRulesUpdated         = "schedule.rules.updated.v1"
	EventServiceUpdated       = "schedule.service.updated.v1"
)
