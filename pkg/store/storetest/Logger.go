// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package storetest

import (
	"sync"
)

// Message is one recorded log message.
type Message struct {
	Msg    string
	Fields map[string]interface{}
}

// Logger records log messages.
type Logger struct {
	mu       sync.Mutex
	messages []Message
}

func (l *Logger) Log(msg string, fields ...map[string]interface{}) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	m := Message{Msg: msg, Fields: map[string]interface{}{}}
	for _, f := range fields {
		for k, v := range f {
			m.Fields[k] = v
		}
	}
	l.messages = append(l.messages, m)
	return nil
}

// Messages returns the recorded messages with the given text.
func (l *Logger) Messages(msg string) []Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	messages := []Message{}
	for _, m := range l.messages {
		if m.Msg == msg {
			messages = append(messages, m)
		}
	}
	return messages
}

func NewLogger() *Logger {
	return &Logger{messages: []Message{}}
}
