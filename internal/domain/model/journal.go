package model

import "time"

// Устройства журнала операций.
const (
	DeviceFingerprint = "fingerprint"
	DeviceIDCard      = "idcard"
	DeviceCamera      = "camera"
	DeviceNAS         = "nas"
)

// Исходы операций.
const (
	OutcomeOK        = "ok"
	OutcomeFailed    = "failed"
	OutcomeTimeout   = "timeout"
	OutcomeCancelled = "cancelled"
)

// JournalEntry — запись журнала операций.
// Персональные данные (содержимое ID-карты, изображения, имена файлов) не хранятся.
type JournalEntry struct {
	ID        int64         `json:"id"`
	Device    string        `json:"device"`
	Operation string        `json:"operation"`
	Outcome   string        `json:"outcome"`
	Detail    string        `json:"detail,omitempty"`
	Duration  time.Duration `json:"-"`
	CreatedAt time.Time     `json:"created_at"`
}

// DurationMS возвращает длительность в миллисекундах.
func (e JournalEntry) DurationMS() int64 {
	return e.Duration.Milliseconds()
}
