// device.go — записи локальных устройств: сканер отпечатков, считыватель ID-карт, документ-камера.
package model

// Коды результата сканера отпечатков.
const (
	FingerprintSuccess       = "1"
	FingerprintWaiting       = "2"
	FingerprintFeatureError  = "3"
	FingerprintUnknown       = "-99"
	FingerprintParamError    = "-100"
	FingerprintOpenFailed    = "-101"
	FingerprintNoFinger      = "-102"
	FingerprintCommError     = "-103"
	FingerprintMergeFailed   = "-104"
	DefaultFingerprintResult = FingerprintUnknown
)

// FingerprintReading — результат одного запроса к сканеру.
// Image и Characteristic — base64 без префикса data:, пустые если данных нет.
type FingerprintReading struct {
	Result         string `json:"result"`
	Quality        string `json:"quality"`
	Image          string `json:"image,omitempty"`
	Characteristic string `json:"characteristic,omitempty"`
}

// Success сообщает, получен ли отпечаток.
func (r FingerprintReading) Success() bool {
	return r.Result == FingerprintSuccess
}

// Типы документов считывателя.
const (
	CertTypeResidentID       = 0
	CertTypeForeignPermanent = 1
	CertTypeHKMOTWResidence  = 2
)

// IDCardRecord — данные документа, прочитанные считывателем.
// Photo — base64 фотографии без префикса data:.
type IDCardRecord struct {
	CertType   int    `json:"certType"`
	Name       string `json:"name"`
	Sex        string `json:"sex"`
	Nation     string `json:"nation"`
	Birthday   string `json:"birthday"`
	Address    string `json:"address"`
	IDCode     string `json:"idCode"`
	Department string `json:"department"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
	Photo      string `json:"Photo"`
}

// IDCardResult — флаг результата чтения. ResultFlag 0 — успех.
type IDCardResult struct {
	ResultFlag int    `json:"resultFlag"`
	ErrorMsg   string `json:"errorMsg"`
}

// IDCardResponse — полный ответ считывателя.
type IDCardResponse struct {
	Info   IDCardRecord `json:"info"`
	Result IDCardResult `json:"result"`
}

// OK сообщает об успешном чтении.
func (r IDCardResponse) OK() bool {
	return r.Result.ResultFlag == 0
}

// CertTypeKey возвращает ключ сообщения для типа документа.
func CertTypeKey(certType int) string {
	switch certType {
	case CertTypeResidentID:
		return "idcard.cert.resident"
	case CertTypeForeignPermanent:
		return "idcard.cert.foreign"
	case CertTypeHKMOTWResidence:
		return "idcard.cert.hkmotw"
	default:
		return "idcard.cert.unknown"
	}
}

// Resolution — разрешение камеры.
type Resolution struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// CameraDevice — устройство документ-камеры.
type CameraDevice struct {
	Name        string       `json:"name"`
	DevIdx      int          `json:"dev_idx"`
	Resolutions []Resolution `json:"resolution"`
}
