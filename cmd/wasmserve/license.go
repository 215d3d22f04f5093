// Copyright (c) 2012-2024 Eli Janssen
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package main

const licenseText = `
This software is available under the MIT License.

Portions of this software utilize third party libraries:
*   Runtime dependencies:
    ├── github.com/alecthomas/kong (MIT license)
    ├── github.com/cactus/mlog (MIT license)
    ├── github.com/klauspost/compress (BSD/Apache 2.0 license)
    ├── github.com/prometheus/client_golang (Apache 2.0 license)
    ├── github.com/prometheus/common (Apache 2.0 license)
    ├── github.com/spf13/afero (Apache 2.0 license)
    ├── go.uber.org/automaxprocs (MIT license)
    └── golang.org/x/net (BSD license)

*   Test/Build only dependencies:
    └── gotest.tools/v3 (Apache 2.0 license)
`
