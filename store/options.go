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

package store

// storeOptions provides optional configuration parameters for Store construction.
type storeOptions struct {
	batchSize int
}

// Option configures a Store.
type Option func(*storeOptions)

var defaultStoreConfig = storeOptions{}

// WithBatchSize caps the number of rows per INSERT statement.  The bound
// parameter limit of the dialect always applies.
func WithBatchSize(n int) Option {
	return func(o *storeOptions) {
		o.batchSize = n
	}
}

// loadOptions provides optional configuration parameters for a load.
type loadOptions struct {
	municipalities []Municipality
}

// LoadOption configures a single load.
type LoadOption func(*loadOptions)

var defaultLoadConfig = loadOptions{}

// WithMunicipalities also loads the municipalities reference table, in the
// same transaction.
func WithMunicipalities(m []Municipality) LoadOption {
	return func(o *loadOptions) {
		o.municipalities = m
	}
}
