package models

type NotificationType string

const (
	NotificationProgressRecorded NotificationType = "progress.recorded"
	NotificationLevelUnlocked    NotificationType = "level.unlocked"
	NotificationStudentCreated   NotificationType = "student.created"
)

type NotificationPriority string

const (
	PriorityLow    NotificationPriority = "low"
	PriorityNormal NotificationPriority = "normal"
	PriorityHigh   NotificationPriority = "high"
)
