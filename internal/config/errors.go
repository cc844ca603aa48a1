package config

import "errors"

var ErrFileDoesNotExist = errors.New("config file does not exist")
var ErrReadConfigFail = errors.New("failed to read config file")
var ErrConfigParsingFail = errors.New("failed to parse config file")
var ErrInvalidConfig = errors.New("invalid config file")
var ErrInvalidUrlType = errors.New("invalid url_type")
var ErrInvalidMaxDepth = errors.New("invalid max_depth for url_type")
var ErrMissingPatterns = errors.New("missing required patterns for url_type")
var ErrNoCategories = errors.New("no categories configured")
