package util

import "github.com/scam-tools/scam/lib/util/logger"

var log = logger.GetSCAMLogger()
