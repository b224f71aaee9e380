package glytrait

import (
	"compress/bzip2"
	"compress/gzip"
	"compress/zlib"
	"io"
	"os"

	"github.com/carbocation/pfx"
	"github.com/krolaw/zipstream"
	"github.com/xi2/xz"
)

type DataType byte

const (
	DataTypeInvalid DataType = iota
	DataTypeNoCompression
	DataTypeGzip
	DataTypeZip
	DataTypeXZ
	DataTypeZ
	DataTypeBZip2
)

var byteCodeSigs = map[DataType][]byte{
	DataTypeGzip:  {0x1f, 0x8b, 0x08},
	DataTypeZip:   {0x50, 0x4b, 0x03, 0x04},
	DataTypeXZ:    {0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00},
	DataTypeZ:     {0x1f, 0x9d},
	DataTypeBZip2: {0x42, 0x5a, 0x68},
}

// DetectDataType checks the leading bytes of a stream against known
// compression signatures. Streams shorter than the longest signature are
// reported as uncompressed. Byte code signatures from
// https://stackoverflow.com/a/19127748/199475
func DetectDataType(r io.Reader) (DataType, error) {
	buff := make([]byte, 6)
	n, err := io.ReadFull(r, buff)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return DataTypeInvalid, err
	}
	buff = buff[:n]

Outer:
	for dt, sig := range byteCodeSigs {
		if len(buff) < len(sig) {
			continue
		}
		for position := range sig {
			if buff[position] != sig[position] {
				continue Outer
			}
		}
		return dt, nil
	}

	return DataTypeNoCompression, nil
}

// OpenMaybeCompressed opens the file at path and, if it carries a known
// compression signature, returns a reader over the decompressed contents.
// Closing the returned reader closes the underlying file.
func OpenMaybeCompressed(path string) (io.ReadCloser, error) {
	f, err := os.Open(ExpandHome(path))
	if err != nil {
		return nil, pfx.Err(err)
	}

	dt, err := DetectDataType(f)
	if err != nil {
		f.Close()
		return nil, pfx.Err(err)
	}

	// Rewind so the decompressor sees the signature
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, pfx.Err(err)
	}

	var rdr io.Reader
	switch dt {
	case DataTypeGzip:
		rdr, err = gzip.NewReader(f)
	case DataTypeZip:
		// Only the first member of an archive is read
		zr := zipstream.NewReader(f)
		if _, err = zr.Next(); err == nil {
			rdr = zr
		}
	case DataTypeBZip2:
		rdr = bzip2.NewReader(f)
	case DataTypeXZ:
		rdr, err = xz.NewReader(f, 0)
	case DataTypeZ:
		rdr, err = zlib.NewReader(f)
	default:
		return f, nil
	}
	if err != nil {
		f.Close()
		return nil, pfx.Err(err)
	}

	return &fileBackedReader{Reader: rdr, file: f}, nil
}

// fileBackedReader closes both the decompressor (when it is closable) and
// the file beneath it.
type fileBackedReader struct {
	io.Reader
	file *os.File
}

func (c *fileBackedReader) Close() error {
	if rc, ok := c.Reader.(io.Closer); ok {
		rc.Close()
	}
	return c.file.Close()
}
