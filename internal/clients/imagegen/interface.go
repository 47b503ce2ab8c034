package imagegen

//go:generate mockgen -destination=mock/mock_client.go -package=mockimagegen . Client

import (
	"context"
	"fmt"
)

// Kind is one of the renders offered by the image service
type Kind string

const (
	KindProfile Kind = "profile"
	KindTroops  Kind = "troops"
	KindXP      Kind = "xp"
)

// FileName returns the attachment name for a render, e.g. profile-2PQLV9.png
func FileName(kind Kind, sanitizedTag string) string {
	return fmt.Sprintf("%s-%s.png", kind, sanitizedTag)
}

type Client interface {
	// FetchImage returns the PNG bytes for a render of the given sanitized tag
	FetchImage(ctx context.Context, kind Kind, sanitizedTag string) ([]byte, error)
}
