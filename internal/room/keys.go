package room

import "strconv"

// Пространства имён ключей комнат. Встречи, комментарии урока и личные
// каналы уведомлений живут в одном реестре и не должны пересекаться.
func MeetingKey(meetingID string) string { return "meeting:" + meetingID }

func CommentsKey(lessonID string) string { return "comments:" + lessonID }

func UserKey(userID int64) string { return "user:" + strconv.FormatInt(userID, 10) }
