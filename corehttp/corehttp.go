package corehttp

// Scheme is a URL scheme supported by the materializer.
type Scheme string

const (
	HTTP  Scheme = "http"
	HTTPS Scheme = "https"
)

// Method is an HTTP request method.
type Method string

const (
	MethodDelete  Method = "DELETE"
	MethodConnect Method = "CONNECT"
	MethodGet     Method = "GET"
	MethodHead    Method = "HEAD"
	MethodPatch   Method = "PATCH"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
)

// HeaderKey is an HTTP header name. Keys are written to the wire exactly
// as declared.
type HeaderKey string

const (
	HeaderAccept             HeaderKey = "Accept"
	HeaderAcceptCharset      HeaderKey = "Accept-Charset"
	HeaderAcceptDatetime     HeaderKey = "Accept-Datetime"
	HeaderAcceptEncoding     HeaderKey = "Accept-Encoding"
	HeaderAcceptLanguage     HeaderKey = "Accept-Language"
	HeaderAuthorization      HeaderKey = "Authorization"
	HeaderCacheControl       HeaderKey = "Cache-Control"
	HeaderConnection         HeaderKey = "Connection"
	HeaderContentLength      HeaderKey = "Content-Length"
	HeaderContentType        HeaderKey = "Content-Type"
	HeaderContentDisposition HeaderKey = "Content-Disposition"
	HeaderCookie             HeaderKey = "Cookie"
	HeaderHost               HeaderKey = "Host"
	HeaderProxyAuthorization HeaderKey = "Proxy-Authorization"
	HeaderUserAgent          HeaderKey = "User-Agent"
)

// String returns the header name.
func (k HeaderKey) String() string { return string(k) }

// MimeType is a media type without parameters.
type MimeType string

const (
	MimeAny       MimeType = "*/*"
	MimeAnyImage  MimeType = "image/*"
	MimeJSON      MimeType = "application/json"
	MimeBinary    MimeType = "application/octet-stream"
	MimeForm      MimeType = "application/x-www-form-urlencoded"
	MimePlain     MimeType = "text/plain"
	MimeJS        MimeType = "text/javascript"
	MimeHTML      MimeType = "text/html"
	MimeCSS       MimeType = "text/css"
	MimeGIF       MimeType = "image/gif"
	MimePNG       MimeType = "image/png"
	MimeJPG       MimeType = "image/jpg"
	MimeJPEG      MimeType = "image/jpeg"
	MimeSVG       MimeType = "image/svg"
	MimeTIFF      MimeType = "image/tiff"
	MimeBMP       MimeType = "image/bmp"
	MimeQuickTime MimeType = "video/quicktime"
	MimeMOV       MimeType = "video/mov"
	MimeMP4       MimeType = "video/mp4"
	MimePDF       MimeType = "application/pdf"
	MimeVnd       MimeType = "application/vnd"
	MimeMultipart MimeType = "multipart/form-data"
)

// String returns the raw media type.
func (m MimeType) String() string { return string(m) }
