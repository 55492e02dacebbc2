package ws

import "time"

type EventType string

const (
	EventCheckIn        EventType = "attendance.recorded"
	EventFaceRegistered EventType = "face.registered"
	EventSummaryRebuilt EventType = "summary.rebuilt"
)

type Event struct {
	Type      EventType `json:"type"`
	Data      any       `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

type CheckIn struct {
	Name     string `json:"name"`
	LoggedAt string `json:"logged_at"`
}

type FaceRegistered struct {
	Name        string `json:"name"`
	GallerySize int    `json:"gallery_size"`
}

type SummaryRebuilt struct {
	Date string `json:"date"`
	Rows int    `json:"rows"`
}
