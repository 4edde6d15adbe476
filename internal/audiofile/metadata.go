package audiofile

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dhowden/tag"
)

// ErrNoMetadata is returned when a file carries no readable tags.
var ErrNoMetadata = errors.New("audiofile: no metadata")

// Metadata is the subset of tag fields the command logs.
type Metadata struct {
	Title    string
	Artist   string
	Album    string
	Format   string
	FileType string
}

// ReadMetadata reads ID3, MP4, FLAC or OGG tags from path.
func ReadMetadata(path string) (Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("audiofile: %w", err)
	}
	defer f.Close()

	return ReadMetadataFrom(f)
}

// ReadMetadataFrom reads tags from r.
func ReadMetadataFrom(r io.ReadSeeker) (Metadata, error) {
	m, err := tag.ReadFrom(r)
	if err != nil {
		if errors.Is(err, tag.ErrNoTagsFound) {
			return Metadata{}, ErrNoMetadata
		}

		return Metadata{}, fmt.Errorf("audiofile: read tags: %w", err)
	}

	return Metadata{
		Title:    m.Title(),
		Artist:   m.Artist(),
		Album:    m.Album(),
		Format:   string(m.Format()),
		FileType: string(m.FileType()),
	}, nil
}
