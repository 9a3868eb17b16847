package anon

import (
	"fmt"
	"log/slog"

	"anonbot/model"
	"anonbot/transport"
)

// fetchAll retrieves the binary content of every attachment reference. A
// failed fetch becomes a notice naming the file and never aborts retrieval
// of the remaining references; no error escapes this boundary.
func fetchAll(tr transport.Transport, refs []model.AttachmentRef, log *slog.Logger) (payloads []transport.Upload, notices []string) {
	for _, ref := range refs {
		data, err := tr.FetchAttachment(ref)
		if err != nil {
			log.Error("failed to fetch attachment",
				"filename", ref.Filename, "url", ref.URL, "error", err)
			notices = append(notices, fmt.Sprintf(
				"Sorry, I couldn't process the attachment: %s. It will be skipped.", ref.Filename))
			continue
		}
		payloads = append(payloads, transport.Upload{
			Filename:    ref.Filename,
			ContentType: ref.ContentType,
			Data:        data,
		})
	}
	return payloads, notices
}
