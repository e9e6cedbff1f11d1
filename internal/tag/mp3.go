package tag

import (
	"fmt"
	"strings"

	"github.com/bogem/id3v2"

	"spotfetch/internal/model"
)

// writeID3 rewrites the MP3's ID3 frames from the catalog track.
func writeID3(track *model.Track, path string, writeText bool, artwork []byte) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return err
	}
	defer tag.Close()

	if writeText {
		tag.SetTitle(track.Title)
		tag.SetArtist(strings.Join(track.Artists, "; "))
		tag.SetAlbum(track.Album)

		if track.AlbumArtist != "" {
			tag.AddTextFrame("TPE2", id3v2.EncodingUTF8, track.AlbumArtist)
		}
		if year := track.Year(); year != "" {
			tag.AddTextFrame("TYER", id3v2.EncodingUTF8, year)
			tag.AddTextFrame("TDRC", id3v2.EncodingUTF8, track.ReleaseDate)
		}
		if track.TrackNumber > 0 {
			tag.AddTextFrame("TRCK", id3v2.EncodingUTF8, fmt.Sprintf("%d", track.TrackNumber))
		}
		if track.DiscNumber > 0 {
			tag.AddTextFrame("TPOS", id3v2.EncodingUTF8, fmt.Sprintf("%d", track.DiscNumber))
		}
		if track.ISRC != "" {
			tag.AddTextFrame("TSRC", id3v2.EncodingUTF8, track.ISRC)
		}
	}

	if artwork != nil {
		tag.DeleteFrames(tag.CommonID("Attached picture"))
		tag.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    "image/jpeg",
			PictureType: id3v2.PTFrontCover,
			Description: "Cover",
			Picture:     artwork,
		})
	}

	return tag.Save()
}
