package geometry

import (
	"os"

	"github.com/bytedance/sonic"

	"github.com/fintrid/tridcheck/internal/common"
)

// PageSource yields the positioned text of one source document. The
// canonical implementation reads the extractor's geometry sidecar file;
// tests substitute in-memory pages.
type PageSource interface {
	Pages() ([]Page, error)
}

// SidecarSource reads pages from a JSON sidecar written alongside the
// extracted fee record.
type SidecarSource struct {
	Path string
}

// Pages decodes the sidecar file. The file holds a flat array of pages
// with their tokens.
func (s SidecarSource) Pages() ([]Page, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, common.NewAppError("NOT_FOUND", "geometry sidecar not found", common.ErrNotFound)
		}
		return nil, common.WrapError(err, "read geometry sidecar")
	}
	var pages []Page
	if err := sonic.Unmarshal(data, &pages); err != nil {
		return nil, common.NewAppError("DECODE_ERROR", "decode geometry sidecar", err)
	}
	return pages, nil
}

// MemorySource serves pre-built pages, mainly for tests.
type MemorySource struct {
	Docs []Page
}

func (m MemorySource) Pages() ([]Page, error) {
	return m.Docs, nil
}
