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

package osmwrangle_test

import (
	"context"
	"fmt"
	"log"

	"m4o.io/osmwrangle"
	"m4o.io/osmwrangle/model"
)

func Example() {
	d, err := osmwrangle.Open(context.Background(), "testdata/milan-sample.osm")
	if err != nil {
		log.Fatal(err)
	}
	defer d.Close()

	var nc, wc, rc uint64
	for e, err := range d.Elements() {
		if err != nil {
			log.Fatal(err)
		}

		switch e.GetType() {
		case model.NODE:
			nc++
		case model.WAY:
			wc++
		case model.RELATION:
			rc++
		}
	}

	fmt.Printf("Nodes: %d, Ways: %d, Relations: %d\n", nc, wc, rc)
	// Output:
	// Nodes: 5, Ways: 2, Relations: 1
}
