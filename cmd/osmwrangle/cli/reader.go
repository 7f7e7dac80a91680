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
	"os"

	"github.com/spf13/pflag"
)

// fileValue is a flag naming a file to read.  "-" is stdin.
type fileValue struct {
	value    **os.File
	typename string
}

// NewFileValue returns a flag value opening the named file when set.
func NewFileValue(p **os.File, typename string) pflag.Value {
	*p = nil

	return &fileValue{value: p, typename: typename}
}

func (v *fileValue) Set(val string) error {
	if val == "-" {
		*v.value = os.Stdin

		return nil
	}

	f, err := os.Open(val)
	if err != nil {
		return err
	}

	*v.value = f

	return nil
}

func (v *fileValue) Type() string {
	return v.typename
}

func (v *fileValue) String() string {
	if *v.value == nil {
		return ""
	}

	return (*v.value).Name()
}
