package tag

import (
	"fmt"
	"strings"

	"github.com/go-flac/flacpicture"
	"github.com/go-flac/flacvorbis"
	"github.com/go-flac/go-flac"

	"spotfetch/internal/model"
)

// writeVorbis rewrites the FLAC's VORBIS_COMMENT and PICTURE blocks
// from the catalog track. Existing comment and picture blocks are
// dropped first so stale source metadata never lingers.
func writeVorbis(track *model.Track, path string, writeText bool, artwork []byte) error {
	f, err := flac.ParseFile(path)
	if err != nil {
		return fmt.Errorf("parsing flac: %w", err)
	}

	var kept []*flac.MetaDataBlock
	for _, block := range f.Meta {
		if block.Type != flac.VorbisComment && block.Type != flac.Picture {
			kept = append(kept, block)
		}
	}
	f.Meta = kept

	if writeText {
		comment := flacvorbis.New()
		addComment(comment, flacvorbis.FIELD_TITLE, track.Title)
		addComment(comment, flacvorbis.FIELD_ARTIST, strings.Join(track.Artists, "; "))
		addComment(comment, flacvorbis.FIELD_ALBUM, track.Album)
		addComment(comment, "ALBUMARTIST", track.AlbumArtist)
		addComment(comment, flacvorbis.FIELD_DATE, track.ReleaseDate)
		addComment(comment, "YEAR", track.Year())
		addComment(comment, "ISRC", track.ISRC)
		if track.TrackNumber > 0 {
			addComment(comment, flacvorbis.FIELD_TRACKNUMBER, fmt.Sprintf("%d", track.TrackNumber))
		}
		if track.DiscNumber > 0 {
			addComment(comment, "DISCNUMBER", fmt.Sprintf("%d", track.DiscNumber))
		}

		block := comment.Marshal()
		f.Meta = append(f.Meta, &block)
	}

	if artwork != nil {
		picture, err := flacpicture.NewFromImageData(
			flacpicture.PictureTypeFrontCover, "Cover", artwork, "image/jpeg")
		if err != nil {
			return fmt.Errorf("building picture block: %w", err)
		}
		block := picture.Marshal()
		f.Meta = append(f.Meta, &block)
	}

	return f.Save(path)
}

func addComment(comment *flacvorbis.MetaDataBlockVorbisComment, field, value string) {
	if value != "" {
		comment.Add(field, value)
	}
}
