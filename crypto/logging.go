package crypto

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// SecureFieldPreview builds logrus fields describing sensitive data without
// logging it: only the first 8 bytes appear, as hex, plus the total size.
func SecureFieldPreview(data []byte, name string) logrus.Fields {
	preview := "nil"
	if len(data) > 0 {
		previewLen := 8
		if len(data) < previewLen {
			previewLen = len(data)
		}
		preview = fmt.Sprintf("%x", data[:previewLen])
		if len(data) > previewLen {
			preview += "..."
		}
	}

	return logrus.Fields{
		name + "_preview": preview,
		name + "_size":    len(data),
	}
}
