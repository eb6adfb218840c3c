// Command libreceipts builds the extractor as a C shared library:
//
//	go build -buildmode=c-shared -o libreceipts.so ./cmd/libreceipts
package main

import "C"

import (
	"unicode/utf8"

	"receipts/internal/pipeline"
)

// process_folder_c returns 0 on success and 1 on any failure.
//
//export process_folder_c
func process_folder_c(dir *C.char) C.uint {
	if dir == nil {
		return 1
	}
	path := C.GoString(dir)
	if !utf8.ValidString(path) {
		return 1
	}
	return C.uint(pipeline.ProcessFolder(path))
}

func main() {}
