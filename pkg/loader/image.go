package loader

import (
	"errors"
	"fmt"
	"os"

	"github.com/fxamacker/cbor/v2"
)

// ImageVersion is the current program image format
const ImageVersion = 1

var ErrImageVersion = errors.New("unsupported image version")

// Image is a program serialized for distribution. It is encoded as CBOR with
// integer keys.
type Image struct {
	Version uint8  `cbor:"1,keyasint"`
	Program []int  `cbor:"2,keyasint"`
	Source  string `cbor:"3,keyasint,omitempty"` // original text, if kept
}

// NewImage wraps a program in the current image format
func NewImage(program []int, source string) *Image {
	return &Image{
		Version: ImageVersion,
		Program: append([]int(nil), program...),
		Source:  source,
	}
}

// Encode serializes the image
func (img *Image) Encode() ([]byte, error) {
	data, err := cbor.Marshal(img)
	if err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return data, nil
}

// DecodeImage parses an encoded image and checks its version
func DecodeImage(data []byte) (*Image, error) {
	var img Image
	if err := cbor.Unmarshal(data, &img); err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	if img.Version != ImageVersion {
		return nil, fmt.Errorf("%w: %d", ErrImageVersion, img.Version)
	}

	return &img, nil
}

// WriteImage encodes the image to path
func WriteImage(path string, img *Image) error {
	data, err := img.Encode()
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("cannot write %s: %w", path, err)
	}
	return nil
}

// ReadImage decodes the image stored at path
func ReadImage(path string) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	return DecodeImage(data)
}
