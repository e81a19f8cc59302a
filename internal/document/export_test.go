package document

// PDFFromContents exposes the PDF builder to external test packages.
var PDFFromContents = pdfFromContents
