package export

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/xml"
	"fmt"

	"github.com/beevik/etree"
	"github.com/ucarion/c14n"

	"github.com/jhoicas/backoffice-api/internal/application/reporting"
)

// Namespaces que Word reconoce para abrir XHTML como documento.
const (
	nsOffice = "urn:schemas-microsoft-com:office:office"
	nsWord   = "urn:schemas-microsoft-com:office:word"
	nsHTML   = "http://www.w3.org/TR/REC-html40"
)

const wordStyles = `body{font-family:Arial,sans-serif;font-size:10pt;color:#222}` +
	`h1{color:#00467f;font-size:16pt;margin:0}` +
	`table{border-collapse:collapse;width:100%}` +
	`th{background:#00467f;color:#fff;padding:4px;text-align:left}` +
	`td{border-bottom:1px solid #ddd;padding:4px}` +
	`td.num,th.num{text-align:right}` +
	`.muted{color:#646464;font-size:8pt}`

// DigestMeta nombre del meta que lleva el digest del cuerpo del documento.
const DigestMeta = "content-digest"

// WordRenderer genera markup XHTML con namespaces de Word (application/msword).
// El cuerpo se firma con un digest SHA-256 sobre su forma canónica (C14N), como el DigestValue
// de una firma XML: cualquier edición del contenido visible invalida el digest.
type WordRenderer struct{}

func NewWordRenderer() *WordRenderer { return &WordRenderer{} }

func (w *WordRenderer) Render(_ context.Context, doc *reporting.Document) ([]byte, error) {
	x := etree.NewDocument()
	html := x.CreateElement("html")
	html.CreateAttr("xmlns", nsHTML)
	html.CreateAttr("xmlns:o", nsOffice)
	html.CreateAttr("xmlns:w", nsWord)

	head := html.CreateElement("head")
	meta := head.CreateElement("meta")
	meta.CreateAttr("http-equiv", "Content-Type")
	meta.CreateAttr("content", "text/html; charset=utf-8")
	title := doc.Title
	if doc.Number != "" {
		title += " " + doc.Number
	}
	head.CreateElement("title").SetText(title)
	head.CreateElement("style").SetText(wordStyles)
	// metadatos de Word: vista de impresión y título del documento
	officeXML := head.CreateElement("xml")
	props := officeXML.CreateElement("o:DocumentProperties")
	props.CreateElement("o:Title").SetText(title)
	if doc.Company.Name != "" {
		props.CreateElement("o:Author").SetText(doc.Company.Name)
	}
	wordDoc := officeXML.CreateElement("w:WordDocument")
	wordDoc.CreateElement("w:View").SetText("Print")

	body := html.CreateElement("body")

	// ── Cabecera ───
	header := body.CreateElement("table")
	hr := header.CreateElement("tr")
	left := hr.CreateElement("td")
	if doc.Company.Logo != "" {
		img := left.CreateElement("img")
		img.CreateAttr("src", doc.Company.Logo)
		img.CreateAttr("alt", "logo")
		img.CreateAttr("height", "60")
	}
	if doc.Company.Name != "" {
		left.CreateElement("h1").SetText(doc.Company.Name)
	}
	right := hr.CreateElement("td")
	right.CreateAttr("class", "num")
	right.CreateElement("strong").SetText(title)
	for _, f := range doc.Header {
		p := right.CreateElement("div")
		p.CreateAttr("class", "muted")
		p.SetText(f.Label + ": " + f.Value)
	}

	writeParty(body, "Emisor", doc.Company, false)
	writeParty(body, "Cliente", doc.Client, true)

	// ── Líneas ───
	items := body.CreateElement("table")
	th := items.CreateElement("tr")
	cols := []string{"Descripción", "Cant.", "Precio"}
	if doc.ShowBuyingPrice {
		cols = append(cols, "Costo")
	}
	cols = append(cols, "Importe")
	for i, c := range cols {
		cell := th.CreateElement("th")
		if i > 0 {
			cell.CreateAttr("class", "num")
		}
		cell.SetText(c)
	}
	for _, l := range doc.Items {
		tr := items.CreateElement("tr")
		values := []string{l.Description, l.Quantity, l.Rate}
		if doc.ShowBuyingPrice {
			values = append(values, l.BuyingPrice)
		}
		values = append(values, l.Amount)
		for i, v := range values {
			td := tr.CreateElement("td")
			if i > 0 {
				td.CreateAttr("class", "num")
			}
			td.SetText(v)
		}
	}

	// ── Totales ───
	totals := body.CreateElement("table")
	for _, f := range doc.Totals {
		tr := totals.CreateElement("tr")
		label := tr.CreateElement("td")
		label.CreateAttr("class", "num")
		label.CreateElement("strong").SetText(f.Label)
		value := tr.CreateElement("td")
		value.CreateAttr("class", "num")
		value.SetText(f.Value)
	}

	if doc.Notes != "" {
		body.CreateElement("h3").SetText("Notas")
		body.CreateElement("p").SetText(doc.Notes)
	}
	if doc.Footnote != "" {
		p := body.CreateElement("p")
		p.CreateAttr("class", "muted")
		p.SetText(doc.Footnote)
	}

	digest, err := bodyDigest(body)
	if err != nil {
		return nil, err
	}
	dm := head.CreateElement("meta")
	dm.CreateAttr("name", DigestMeta)
	dm.CreateAttr("content", digest)

	raw, err := x.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("word: serializar: %w", err)
	}
	out, err := canonicalize(raw)
	if err != nil {
		return nil, fmt.Errorf("word: canonicalizar: %w", err)
	}
	return out, nil
}

// writeParty agrega el bloque de emisor o cliente; no escribe nada si no hay campos visibles.
func writeParty(body *etree.Element, title string, p reporting.Party, withName bool) {
	if (!withName || p.Name == "") && len(p.Fields) == 0 {
		return
	}
	div := body.CreateElement("div")
	div.CreateElement("h3").SetText(title)
	if withName && p.Name != "" {
		div.CreateElement("strong").SetText(p.Name)
	}
	for _, f := range p.Fields {
		line := div.CreateElement("div")
		line.SetText(f.Label + ": " + f.Value)
	}
}

func canonicalize(data []byte) ([]byte, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Entity = map[string]string{}
	return c14n.Canonicalize(dec)
}

// bodyDigest "sha256-<base64>" del elemento body canonicalizado.
func bodyDigest(body *etree.Element) (string, error) {
	d := etree.NewDocument()
	d.SetRoot(body.Copy())
	raw, err := d.WriteToBytes()
	if err != nil {
		return "", fmt.Errorf("word: serializar cuerpo: %w", err)
	}
	canon, err := canonicalize(raw)
	if err != nil {
		return "", fmt.Errorf("word: canonicalizar cuerpo: %w", err)
	}
	sum := sha256.Sum256(canon)
	return "sha256-" + base64.StdEncoding.EncodeToString(sum[:]), nil
}

// VerifyWordDigest recalcula el digest del cuerpo de un documento generado por WordRenderer
// y lo compara con el declarado en la cabecera.
func VerifyWordDigest(data []byte) (bool, error) {
	x := etree.NewDocument()
	if err := x.ReadFromBytes(data); err != nil {
		return false, fmt.Errorf("word: leer documento: %w", err)
	}
	body := x.FindElement("//body")
	meta := x.FindElement("//meta[@name='" + DigestMeta + "']")
	if body == nil || meta == nil {
		return false, nil
	}
	digest, err := bodyDigest(body)
	if err != nil {
		return false, err
	}
	return digest == meta.SelectAttrValue("content", ""), nil
}
