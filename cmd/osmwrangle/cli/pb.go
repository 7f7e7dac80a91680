// Copyright 2017-25 the original author or authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cli

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
	pb "gopkg.in/cheggaaa/pb.v1"
)

// progressBar is an instance of ReadCloser with an associated ProgressBar.
// Closing it closes the delegate and clears the progress line.
type progressBar struct {
	r   io.ReadCloser
	bar *pb.ProgressBar
}

// WrapInputFile returns f wrapped with a ProgressBar tracking the bytes
// read relative to the file size.  Stdin, files of unknown size and runs
// whose stderr is not a terminal get f back as is.
func WrapInputFile(f *os.File) (io.ReadCloser, error) {
	if f == os.Stdin || !term.IsTerminal(int(os.Stderr.Fd())) {
		return f, nil
	}

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}

	if !fi.Mode().IsRegular() {
		return f, nil
	}

	bar := pb.New64(fi.Size()).SetUnits(pb.U_BYTES_DEC).SetWidth(79)
	bar.Output = os.Stderr
	bar.Start()

	return progressBar{
		r:   bar.NewProxyReader(f),
		bar: bar,
	}, nil
}

func (pb progressBar) Read(p []byte) (int, error) {
	return pb.r.Read(p)
}

// Close closes the delegate and clears the terminal line of progress
// output.
func (pb progressBar) Close() error {
	// make sure newline is not printed by Finish()
	pb.bar.Output = nil
	pb.bar.NotPrint = true

	pb.bar.Finish()

	fmt.Fprint(os.Stderr, "\033[2K\r")

	return pb.r.Close()
}
