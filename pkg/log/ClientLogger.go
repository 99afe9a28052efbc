// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package log

import (
	"fmt"
	"strings"

	"github.com/aws/smithy-go/logging"
)

// ClientLogger adapts a SimpleLogger to the logging interface of the AWS SDK.
type ClientLogger struct {
	logger *SimpleLogger
}

func (c ClientLogger) Logf(classification logging.Classification, format string, v ...interface{}) {
	event := fmt.Sprintf(format, v...)
	msg := ""
	details := ""
	if prefix := "Request Signature:\n"; strings.HasPrefix(event, prefix) {
		msg = "Request Signature"
		details = event[len(prefix):]
	} else if prefix := "Request\n"; strings.HasPrefix(event, prefix) {
		msg = "Request"
		details = event[len(prefix):]
	} else if prefix := "Response\n"; strings.HasPrefix(event, prefix) {
		msg = "Response"
		details = event[len(prefix):]
	} else {
		msg = "Client Event"
		details = event
	}
	fields := map[string]interface{}{
		"client":  "s3",
		"details": details,
	}
	if classification == logging.Warn {
		fields["classification"] = string(classification)
	}
	_ = c.logger.Debug(msg, fields)
}

func NewClientLogger(logger *SimpleLogger) *ClientLogger {
	return &ClientLogger{logger: logger}
}
