package services

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"

	"encomiendas-backend/models"
)

// SRI factura XML, versión 1.0.0. Only the fields the tax authority requires
// for an unsigned GENERATED document; signing happens downstream.
type facturaXML struct {
	XMLName        xml.Name       `xml:"factura"`
	ID             string         `xml:"id,attr"`
	Version        string         `xml:"version,attr"`
	InfoTributaria infoTributaria `xml:"infoTributaria"`
	InfoFactura    infoFactura    `xml:"infoFactura"`
	Detalles       detalles       `xml:"detalles"`
}

type infoTributaria struct {
	Ambiente    int    `xml:"ambiente"`
	TipoEmision string `xml:"tipoEmision"`
	RazonSocial string `xml:"razonSocial"`
	Ruc         string `xml:"ruc"`
	ClaveAcceso string `xml:"claveAcceso"`
	CodDoc      string `xml:"codDoc"`
	Estab       string `xml:"estab"`
	PtoEmi      string `xml:"ptoEmi"`
	Secuencial  string `xml:"secuencial"`
	DirMatriz   string `xml:"dirMatriz"`
}

type infoFactura struct {
	FechaEmision         string `xml:"fechaEmision"`
	RazonSocialComprador string `xml:"razonSocialComprador"`
	IdentComprador       string `xml:"identificacionComprador"`
	TotalSinImpuestos    string `xml:"totalSinImpuestos"`
	ImporteIva           string `xml:"importeIva"`
	ImporteTotal         string `xml:"importeTotal"`
	Moneda               string `xml:"moneda"`
}

type detalles struct {
	Detalle []detalle `xml:"detalle"`
}

type detalle struct {
	Descripcion    string `xml:"descripcion"`
	Cantidad       int    `xml:"cantidad"`
	PrecioUnitario string `xml:"precioUnitario"`
	Subtotal       string `xml:"precioTotalSinImpuesto"`
	Iva            string `xml:"iva"`
	Total          string `xml:"precioTotalConImpuesto"`
}

func money(v float64) string { return fmt.Sprintf("%.2f", v) }

// BuildInvoiceXML marshals the fiscal document for an invoice. The reception
// must be preloaded with sender data; details follow their stored line order.
func BuildInvoiceXML(inv *models.Invoice, rec *models.Reception, e *models.Enterprise) ([]byte, error) {
	doc := facturaXML{
		ID:      "comprobante",
		Version: "1.0.0",
		InfoTributaria: infoTributaria{
			Ambiente:    e.Environment,
			TipoEmision: emissionNormal,
			RazonSocial: e.Name,
			Ruc:         e.Ruc,
			ClaveAcceso: inv.AccessKey,
			CodDoc:      docTypeFactura,
			Estab:       e.Establishment,
			PtoEmi:      e.EmissionPoint,
			Secuencial:  fmt.Sprintf("%09d", inv.Sequential),
			DirMatriz:   e.Address,
		},
		InfoFactura: infoFactura{
			FechaEmision:         inv.IssueDate.Format("02/01/2006"),
			RazonSocialComprador: rec.Sender.FirstName + " " + rec.Sender.LastName,
			IdentComprador:       rec.Sender.Identification,
			TotalSinImpuestos:    money(inv.Subtotal),
			ImporteIva:           money(inv.Vat),
			ImporteTotal:         money(inv.Total),
			Moneda:               "DOLAR",
		},
	}
	for _, d := range inv.Details {
		doc.Detalles.Detalle = append(doc.Detalles.Detalle, detalle{
			Descripcion:    d.Description,
			Cantidad:       d.Quantity,
			PrecioUnitario: money(d.UnitPrice),
			Subtotal:       money(d.Subtotal),
			Iva:            money(d.Vat),
			Total:          money(d.Total),
		})
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}

// WriteInvoiceXML renders and stores the fiscal artifact, returning the file
// path. Runs after the invoice transaction commits; a failure here surfaces
// as ArtifactError and never rolls the invoice back.
func WriteInvoiceXML(dir string, inv *models.Invoice, rec *models.Reception, e *models.Enterprise) (string, error) {
	data, err := BuildInvoiceXML(inv, rec, e)
	if err != nil {
		return "", &ArtifactError{InvoiceID: inv.ID, Err: err}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &ArtifactError{InvoiceID: inv.ID, Err: err}
	}
	path := filepath.Join(dir, inv.AccessKey+".xml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", &ArtifactError{InvoiceID: inv.ID, Err: err}
	}
	return path, nil
}
