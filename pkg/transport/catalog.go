package transport

import "github.com/getmockd/transmock/pkg/message"

// Transport property names.
const (
	PropBindingType                   = "WCF.BindingType"
	PropBindingConfiguration          = "WCF.BindingConfiguration"
	PropAction                        = "WCF.Action"
	PropStaticAction                  = "WCF.StaticAction"
	PropEndpointBehaviorConfiguration = "WCF.EndpointBehaviorConfiguration"
	PropIdentity                      = "WCF.Identity"
	PropOutboundBodyLocation          = "WCF.OutboundBodyLocation"
	PropOutboundXMLTemplate           = "WCF.OutboundXmlTemplate"
	PropInboundBodyLocation           = "WCF.InboundBodyLocation"
	PropInboundBodyPathExpression     = "WCF.InboundBodyPathExpression"
	PropInboundNodeEncoding           = "WCF.InboundNodeEncoding"
	PropPropagateFaultMessage         = "WCF.PropagateFaultMessage"
	PropIncludeExceptionDetail        = "WCF.IncludeExceptionDetailInFaults"
	PropSuspendMessageOnFailure       = "WCF.SuspendMessageOnFailure"
	PropUseSSO                        = "WCF.UseSSO"
	PropAffiliateApplicationName      = "WCF.AffiliateApplicationName"
	PropEnableTransaction             = "WCF.EnableTransaction"

	PropSecurityMode                  = "WCF.SecurityMode"
	PropTransportClientCredentialType = "WCF.TransportClientCredentialType"
	PropMessageClientCredentialType   = "WCF.MessageClientCredentialType"
	PropUserName                      = "WCF.UserName"
	PropPassword                      = "WCF.Password"
	PropClientCertificate             = "WCF.ClientCertificate"
	PropServiceCertificate            = "WCF.ServiceCertificate"

	PropProxyToUse    = "WCF.ProxyToUse"
	PropProxyAddress  = "WCF.ProxyAddress"
	PropProxyUserName = "WCF.ProxyUserName"
	PropProxyPassword = "WCF.ProxyPassword"

	PropHTTPUsername  = "HTTP.Username"
	PropHTTPPassword  = "HTTP.Password"
	PropHTTPUseProxy  = "HTTP.UseProxy"
	PropHTTPProxyName = "HTTP.ProxyName"
	PropFILEUsername  = "FILE.Username"
	PropFILEPassword  = "FILE.Password"
	PropFTPUserName   = "FTP.UserName"
	PropFTPPassword   = "FTP.Password"
	PropSMTPUsername  = "SMTP.Username"
	PropSMTPPassword  = "SMTP.Password"
)

// Mock binding values.
const (
	// TransportType is the transport the engine binds the port to.
	TransportType = "WCF-Custom"

	MockBindingType          = "mockBinding"
	MockBindingConfiguration = `<binding name="mockBinding" Encoding="UTF-8" />`
	MockAction               = "*"
	DefaultBehavior          = `<behavior name="EndpointBehavior" />`
	MockOutboundBodyLocation = "UseTemplate"
	MockOutboundXMLTemplate  = `<bts-msg-body xmlns="http://www.microsoft.com/schemas/bts2007" encoding="base64"/>`
	MockInboundBodyLocation  = "UseBodyPath"
	MockInboundBodyPath      = "/MessageContent"
	MockInboundNodeEncoding  = "Base64"
)

// neutralNone is the neutral value of enumerated credential, proxy and
// security settings.
const neutralNone = "None"

// originalTransport lists every property of an original binding that is
// reset before the mock binding is applied. The neutral value of each entry
// is fixed per property; downstream transports read "" and "None" differently.
var originalTransport = []message.Property{
	{Name: PropBindingType, Value: message.String("")},
	{Name: PropBindingConfiguration, Value: message.String("")},
	{Name: PropAction, Value: message.String("")},
	{Name: PropStaticAction, Value: message.String("")},
	{Name: PropEndpointBehaviorConfiguration, Value: message.String("")},
	{Name: PropIdentity, Value: message.String("")},
	{Name: PropOutboundBodyLocation, Value: message.String("")},
	{Name: PropOutboundXMLTemplate, Value: message.String("")},
	{Name: PropInboundBodyLocation, Value: message.String("")},
	{Name: PropInboundBodyPathExpression, Value: message.String("")},
	{Name: PropInboundNodeEncoding, Value: message.String("")},
	{Name: PropPropagateFaultMessage, Value: message.Bool(false)},
	{Name: PropIncludeExceptionDetail, Value: message.Bool(false)},
	{Name: PropSuspendMessageOnFailure, Value: message.Bool(false)},
	{Name: PropEnableTransaction, Value: message.Bool(false)},

	// credentials and security
	{Name: PropSecurityMode, Value: message.String(neutralNone)},
	{Name: PropTransportClientCredentialType, Value: message.String(neutralNone)},
	{Name: PropMessageClientCredentialType, Value: message.String(neutralNone)},
	{Name: PropUserName, Value: message.String("")},
	{Name: PropPassword, Value: message.String("")},
	{Name: PropClientCertificate, Value: message.String("")},
	{Name: PropServiceCertificate, Value: message.String("")},
	{Name: PropUseSSO, Value: message.Bool(false)},
	{Name: PropAffiliateApplicationName, Value: message.String("")},

	// proxy
	{Name: PropProxyToUse, Value: message.String(neutralNone)},
	{Name: PropProxyAddress, Value: message.String("")},
	{Name: PropProxyUserName, Value: message.String("")},
	{Name: PropProxyPassword, Value: message.String("")},

	// static adapters that may have bound the message earlier
	{Name: PropHTTPUsername, Value: message.String("")},
	{Name: PropHTTPPassword, Value: message.String("")},
	{Name: PropHTTPUseProxy, Value: message.Bool(false)},
	{Name: PropHTTPProxyName, Value: message.String("")},
	{Name: PropFILEUsername, Value: message.String("")},
	{Name: PropFILEPassword, Value: message.String("")},
	{Name: PropFTPUserName, Value: message.String("")},
	{Name: PropFTPPassword, Value: message.String("")},
	{Name: PropSMTPUsername, Value: message.String("")},
	{Name: PropSMTPPassword, Value: message.String("")},
}

// OriginalTransport returns the original-transport properties with their
// neutral values, in clearing order.
func OriginalTransport() []message.Property {
	out := make([]message.Property, len(originalTransport))
	copy(out, originalTransport)
	return out
}

// Neutral returns the neutral value of an original-transport property.
func Neutral(name string) (message.Value, bool) {
	for _, p := range originalTransport {
		if p.Name == name {
			return p.Value, true
		}
	}
	return message.Value{}, false
}

// MockProperties is the property set that binds a message to the mock
// transport. Every field maps to exactly one property name.
type MockProperties struct {
	BindingType                   string
	BindingConfiguration          string
	Action                        string
	EndpointBehaviorConfiguration string
	OutboundBodyLocation          string
	OutboundXMLTemplate           string
	InboundBodyLocation           string
	InboundBodyPathExpression     string
	InboundNodeEncoding           string
	PropagateFaultMessage         bool
	UseSSO                        bool
	EnableTransaction             bool
}

// NewMockProperties returns the mock property set with behavior as the
// endpoint behavior configuration. An empty behavior selects DefaultBehavior.
// The behavior is not validated.
func NewMockProperties(behavior string) MockProperties {
	if behavior == "" {
		behavior = DefaultBehavior
	}
	return MockProperties{
		BindingType:                   MockBindingType,
		BindingConfiguration:          MockBindingConfiguration,
		Action:                        MockAction,
		EndpointBehaviorConfiguration: behavior,
		OutboundBodyLocation:          MockOutboundBodyLocation,
		OutboundXMLTemplate:           MockOutboundXMLTemplate,
		InboundBodyLocation:           MockInboundBodyLocation,
		InboundBodyPathExpression:     MockInboundBodyPath,
		InboundNodeEncoding:           MockInboundNodeEncoding,
		PropagateFaultMessage:         true,
		UseSSO:                        false,
		EnableTransaction:             false,
	}
}

// Properties returns the set as named properties in application order.
func (m MockProperties) Properties() []message.Property {
	return []message.Property{
		{Name: PropBindingType, Value: message.String(m.BindingType)},
		{Name: PropBindingConfiguration, Value: message.String(m.BindingConfiguration)},
		{Name: PropAction, Value: message.String(m.Action)},
		{Name: PropEndpointBehaviorConfiguration, Value: message.String(m.EndpointBehaviorConfiguration)},
		{Name: PropOutboundBodyLocation, Value: message.String(m.OutboundBodyLocation)},
		{Name: PropOutboundXMLTemplate, Value: message.String(m.OutboundXMLTemplate)},
		{Name: PropInboundBodyLocation, Value: message.String(m.InboundBodyLocation)},
		{Name: PropInboundBodyPathExpression, Value: message.String(m.InboundBodyPathExpression)},
		{Name: PropInboundNodeEncoding, Value: message.String(m.InboundNodeEncoding)},
		{Name: PropPropagateFaultMessage, Value: message.Bool(m.PropagateFaultMessage)},
		{Name: PropUseSSO, Value: message.Bool(m.UseSSO)},
		{Name: PropEnableTransaction, Value: message.Bool(m.EnableTransaction)},
	}
}
