package fcm

import (
	"fmt"
	"strconv"
)

// Message is one push notification addressed to one device token.
type Message struct {
	Token string
	Title string
	Body  string
	Data  map[string]any
}

// StringifyData coerces every data value to a string; the gateway rejects non-string values.
func StringifyData(data map[string]any) map[string]string {
	if len(data) == 0 {
		return nil
	}
	out := make(map[string]string, len(data))
	for k, v := range data {
		out[k] = stringify(v)
	}
	return out
}

func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case *string:
		if val == nil {
			return ""
		}
		return *val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

// shortToken keeps device tokens out of logs.
func shortToken(token string) string {
	if len(token) <= 20 {
		return token
	}
	return token[:20] + "..."
}

// HTTP v1 wire format.
type sendRequest struct {
	Message wireMessage `json:"message"`
}

type wireMessage struct {
	Token        string            `json:"token"`
	Notification wireNotification  `json:"notification"`
	Android      wireAndroid       `json:"android"`
	APNS         wireAPNS          `json:"apns"`
	Data         map[string]string `json:"data,omitempty"`
}

type wireNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type wireAndroid struct {
	Priority     string                  `json:"priority"`
	Notification wireAndroidNotification `json:"notification"`
}

type wireAndroidNotification struct {
	Sound                 string `json:"sound"`
	ChannelID             string `json:"channel_id"`
	DefaultSound          bool   `json:"default_sound"`
	DefaultVibrateTimings bool   `json:"default_vibrate_timings"`
	NotificationPriority  string `json:"notification_priority"`
}

type wireAPNS struct {
	Payload wireAPNSPayload `json:"payload"`
}

type wireAPNSPayload struct {
	Aps wireAps `json:"aps"`
}

type wireAps struct {
	Sound string `json:"sound"`
	Badge int    `json:"badge"`
}

func buildWireMessage(msg Message) sendRequest {
	return sendRequest{
		Message: wireMessage{
			Token: msg.Token,
			Notification: wireNotification{
				Title: msg.Title,
				Body:  msg.Body,
			},
			Android: wireAndroid{
				Priority: "high",
				Notification: wireAndroidNotification{
					Sound:                 "default",
					ChannelID:             "default",
					DefaultSound:          true,
					DefaultVibrateTimings: true,
					NotificationPriority:  "PRIORITY_HIGH",
				},
			},
			APNS: wireAPNS{
				Payload: wireAPNSPayload{
					Aps: wireAps{Sound: "default", Badge: 1},
				},
			},
			Data: StringifyData(msg.Data),
		},
	}
}

type gatewayErrorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
		Details []struct {
			Type      string `json:"@type"`
			ErrorCode string `json:"errorCode"`
		} `json:"details"`
	} `json:"error"`
}

// errorCode prefers the FCM-specific detail code and falls back to the RPC status.
func (b gatewayErrorBody) errorCode() string {
	if len(b.Error.Details) > 0 && b.Error.Details[0].ErrorCode != "" {
		return b.Error.Details[0].ErrorCode
	}
	return b.Error.Status
}
