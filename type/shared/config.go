package shared

type Config struct {
	Port             *string           `yaml:"port" validate:"required"`
	Cors             []*string         `yaml:"cors"`
	TemplatesDir     *string           `yaml:"templates_dir" validate:"required"`
	PdfTemplatesDir  *string           `yaml:"pdf_templates_dir"`
	ScratchDir       *string           `yaml:"scratch_dir"`
	SampleWorkbook   *string           `yaml:"sample_workbook"`
	FontPath         *string           `yaml:"font_path"`
	SofficePath      *string           `yaml:"soffice_path"`
	Workers          *int              `yaml:"workers" validate:"omitempty,min=1,max=16"`
	KeepaliveSeconds *int              `yaml:"keepalive_seconds" validate:"omitempty,min=1"`
	MonthLocale      *string           `yaml:"month_locale" validate:"omitempty,oneof=en ru"`
	DefaultCity      *string           `yaml:"default_city"`
	Renderers        map[string]string `yaml:"renderers" validate:"omitempty,dive,keys,oneof=print online,endkeys,oneof=template overlay"`
	OnlineNamePad    *int              `yaml:"online_name_pad" validate:"omitempty,min=0,max=10"`
	OnlineCoursePad  *int              `yaml:"online_course_pad" validate:"omitempty,min=0,max=10"`
	VerifyURL        *string           `yaml:"verify_url"`
	JWTSecret        *string           `yaml:"jwt_secret"`
	MinIoEndpoint    *string           `yaml:"minio_endpoint" validate:"required_with=BucketArchive"`
	MinIoAccessKey   *string           `yaml:"minio_access_key" validate:"required_with=BucketArchive"`
	MinIoSecretKey   *string           `yaml:"minio_secret_key" validate:"required_with=BucketArchive"`
	MinIoSecure      *bool             `yaml:"minio_secure"`
	BucketArchive    *string           `yaml:"bucket_archive"`
	SigningEnabled   *bool             `yaml:"signing_enabled"`
	SigningCertPath  *string           `yaml:"signing_cert_path"`
	SigningKeyPath   *string           `yaml:"signing_key_path"`
}
