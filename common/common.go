package common

import (
	"github.com/minio/minio-go/v7"
	"github.com/sunthewhat/easy-cert-batch/type/shared"
)

var Config *shared.Config
var MinIOClient *minio.Client
