package domain

const (
	RoleAdmin      = "ADMIN"
	RoleSupervisor = "SUPERVISOR"
	RoleEmployee   = "EMPLOYEE"
)

const (
	PresenceOnline  = "ONLINE"
	PresenceOffline = "OFFLINE"
	PresenceOnSite  = "ON_SITE"
	PresenceDriving = "DRIVING"
)

// Task lifecycle states. Completed is terminal; Pending is the overdue
// side-channel entered when the active window elapses on an unfinished task.
const (
	TaskPlanned    = "PLANNED"
	TaskNotStarted = "NOT_STARTED"
	TaskInProgress = "IN_PROGRESS"
	TaskPaused     = "PAUSED"
	TaskCompleted  = "COMPLETED"
	TaskPending    = "PENDING"
)

const (
	PriorityLow    = "LOW"
	PriorityMedium = "MEDIUM"
	PriorityHigh   = "HIGH"
)

const (
	MeetingScheduled = "SCHEDULED"
	MeetingLive      = "LIVE"
	MeetingEnded     = "ENDED"
)

const (
	GeofenceEventEnter = "ENTER"
	GeofenceEventExit  = "EXIT"
)

const (
	NotifTaskAssigned  = "TASK_ASSIGNED"
	NotifTaskOverdue   = "TASK_OVERDUE"
	NotifTaskCompleted = "TASK_COMPLETED"
	NotifGeofenceEnter = "GEOFENCE_ENTER"
	NotifGeofenceExit  = "GEOFENCE_EXIT"
	NotifMeetingInvite = "MEETING_INVITE"
	NotifReportReady   = "REPORT_READY"
)

// OverdueForwardHours is how far the due date is pushed forward when a task
// goes Pending.
const OverdueForwardHours = 24
