// Copyright 2018 Comcast Cable Communications Management, LLC
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sub

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"

	"github.com/pepper-iot/pulsar-client-go/pkg/api"
)

// decompressor turns a possibly-compressed frame payload back into the
// original bytes. One is kept per CompressionType on the Consumer for its
// lifetime rather than allocated per batch (SUPPLEMENTED FEATURES: the
// per-connection compression provider cache both upstream forks carry).
type decompressor interface {
	Decompress(compressed []byte, uncompressedSize int) ([]byte, error)
}

type noopDecompressor struct{}

func (noopDecompressor) Decompress(compressed []byte, _ int) ([]byte, error) {
	return compressed, nil
}

// zlibDecompressor is the only real codec implemented against the standard
// library: no compression package appears in any retrieved example's
// go.mod, so there is nothing in the corpus to ground LZ4/ZSTD/Snappy
// support on, and compress/zlib is the one wire-compatible codec the
// standard library already provides.
type zlibDecompressor struct{}

func (zlibDecompressor) Decompress(compressed []byte, uncompressedSize int) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, err
	}
	defer r.Close()

	out := make([]byte, 0, uncompressedSize)
	buf := bytes.NewBuffer(out)
	if _, err := io.Copy(buf, r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// newDecompressor returns the decompressor for compressionType, or an error
// for codecs this build doesn't carry a library for.
func newDecompressor(compressionType api.CompressionType) (decompressor, error) {
	switch compressionType {
	case api.CompressionType_NONE:
		return noopDecompressor{}, nil
	case api.CompressionType_ZLIB:
		return zlibDecompressor{}, nil
	default:
		return nil, fmt.Errorf("sub: unsupported compression type: %s", compressionType)
	}
}
