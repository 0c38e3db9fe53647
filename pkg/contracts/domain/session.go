package domain

import (
	"time"
)

// Session represents one cleaned browsing session, the primary grain of the
// master dataset. SessionID is unique after cleaning.
type Session struct {
	SessionID       int64     `json:"session_id" csv:"session_id" validate:"required"`
	UserID          int64     `json:"user_id" csv:"user_id"`
	SessionDate     time.Time `json:"session_date" csv:"session_date"`
	IsRepeatSession int       `json:"is_repeat_session" csv:"is_repeat_session"`
	TrafficSource   string    `json:"traffic_source" csv:"traffic_source"`
	UTMCampaign     string    `json:"utm_campaign" csv:"utm_campaign"`
	UTMContent      string    `json:"utm_content,omitempty" csv:"utm_content"`
	HTTPReferer     string    `json:"http_referer,omitempty" csv:"http_referer"`
	DeviceType      string    `json:"device_type" csv:"device_type"`
}
