// Package share builds social-share shortcuts for a blessing.
package share

import (
	"fmt"
	"net/url"

	"github.com/atotto/clipboard"
	"github.com/kaiwen/blessings/internal/corpus"
	"github.com/kaiwen/blessings/internal/logging"
)

// Link is one share target.
type Link struct {
	Name string
	URL  string
}

// Message formats the text shared for an item.
func Message(item corpus.Item) string {
	return fmt.Sprintf("【%s】%s #1024程序员节#", item.Category, item.Text)
}

// Links returns share URLs for the supported platforms.
func Links(item corpus.Item) []Link {
	text := url.QueryEscape(Message(item))
	return []Link{
		{Name: "微博", URL: "https://service.weibo.com/share/share.php?title=" + text},
		{Name: "QQ空间", URL: "https://sns.qzone.qq.com/cgi-bin/qzshare/cgi_qzshare_onekey?summary=" + text},
		{Name: "X", URL: "https://twitter.com/intent/tweet?text=" + text},
	}
}

// Copy puts the share message on the system clipboard. Failure is reported
// to the caller for a transient notice; it never aborts the session.
func Copy(item corpus.Item) error {
	msg := Message(item)
	if err := clipboard.WriteAll(msg); err != nil {
		logging.Warn("Clipboard copy failed", "error", err)
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	logging.Debug("Copied blessing to clipboard", "category", item.Category)
	return nil
}
